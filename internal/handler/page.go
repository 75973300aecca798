package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/genpass/genpass-go/internal/middleware"
	"github.com/genpass/genpass-go/internal/service"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>GenPass</title>
</head>
<body>
<main>
<h1>GenPass</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{else}}
<pre id="generated_password">{{.Password}}</pre>
<button id="copy-button" type="button" data-password="{{.Password}}">Copy</button>
{{end}}
<p><a href="{{.Self}}">Generate another</a> · <a href="{{.Other}}">{{.OtherLabel}}</a></p>
</main>
<script>
document.getElementById("copy-button")?.addEventListener("click", function (e) {
	navigator.clipboard.writeText(e.target.dataset.password);
});
</script>
</body>
</html>
`))

type pageData struct {
	Password   string
	Error      string
	Self       string
	Other      string
	OtherLabel string
}

// PageHandler renders the HTML pages. Passwords are escaped only here, on
// the way into the template.
type PageHandler struct {
	service *service.GeneratorService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(svc *service.GeneratorService) *PageHandler {
	return &PageHandler{service: svc}
}

// HandleIndex handles GET / requests.
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, service.PresetSegmented, pageData{Self: "/", Other: "/v2/", OtherLabel: "With symbols"})
}

// HandleV2 handles GET /v2/ requests.
func (h *PageHandler) HandleV2(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, service.PresetExtended, pageData{Self: "/v2/", Other: "/", OtherLabel: "Segmented"})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, preset string, data pageData) {
	status := http.StatusOK
	resp, err := h.service.GeneratePreset(r.Context(), middleware.ClientIP(r), preset)
	if err != nil {
		slog.Error("page password generation failed", "preset", preset, "error", err)
		status = http.StatusInternalServerError
		data.Error = "Error generating password. Please try again."
	} else {
		data.Password = resp.Password
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		slog.Error("rendering page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeNoStore(w)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
