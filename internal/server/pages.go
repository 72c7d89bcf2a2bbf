package server

import (
	"html/template"
	"net/http"

	"github.com/agence-immo/agence/internal/session"
)

var backOfficePages = map[string]string{
	"/dashboard":       "Tableau de bord",
	"/settings":        "Paramètres du site",
	"/users":           "Utilisateurs",
	"/proprietes-area": "Gestion des propriétés",
}

var authPageTitles = map[string]string{
	"/forgot-password": "Mot de passe oublié",
	"/reset-password":  "Réinitialisation du mot de passe",
}

func authPageTitle(path string) string {
	if title, ok := authPageTitles[path]; ok {
		return title
	}
	return "Compte"
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="fr">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Path}}</p>
{{if .UserID}}<p>Connecté en tant que {{.UserID}}</p>{{end}}
</body>
</html>
`))

type pageData struct {
	Title  string
	Path   string
	UserID string
}

// page renders a placeholder; real pages are rendered elsewhere.
func (s *Server) page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Title: title, Path: r.URL.Path}
		if sess := session.FromRequest(r); sess != nil {
			data.UserID = sess.UserID.String()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			s.logger.Error("render page failed", "path", r.URL.Path, "error", err.Error())
		}
	}
}
