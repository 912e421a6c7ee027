package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var embedFS embed.FS

var templateFuncs = template.FuncMap{
	"amount": func(value float64) string { return fmt.Sprintf("%.2f", value) },
	"inc":    func(value int) int { return value + 1 },
	"dec":    func(value int) int { return value - 1 },
}

func getTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(embedFS, "**/*.html")
}
