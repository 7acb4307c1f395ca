package rendering

import (
	"bytes"
	"strings"
	"text/template"
)

// maxOutlineLevel is the deepest paragraph level DrawingML accepts
const maxOutlineLevel = 8

const slideTemplateText = `{{define "ph"}}<p:ph{{if .PhType}} type="{{escape .PhType}}"{{end}}{{if .PhIdx}} idx="{{.PhIdx}}"{{end}}/>{{end}}
{{- define "paragraphs"}}{{range .}}<a:p>{{if .Level}}<a:pPr lvl="{{.Level}}"/>{{end}}{{range $i, $line := .Lines}}{{if $i}}<a:br/>{{end}}<a:r><a:rPr lang="en-US" dirty="0"/><a:t>{{escape $line}}</a:t></a:r>{{end}}</a:p>{{else}}<a:p/>{{end}}{{end}}
{{- define "shape"}}{{if .ImageRID}}<p:pic><p:nvPicPr><p:cNvPr id="{{.ID}}" name="{{escape .Name}}" descr="{{escape .Descr}}"/><p:cNvPicPr><a:picLocks noGrp="1" noChangeAspect="1"/></p:cNvPicPr><p:nvPr>{{template "ph" .}}</p:nvPr></p:nvPicPr><p:blipFill><a:blip r:embed="{{.ImageRID}}"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr/></p:pic>
{{- else}}<p:sp><p:nvSpPr><p:cNvPr id="{{.ID}}" name="{{escape .Name}}"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>{{template "ph" .}}</p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>{{template "paragraphs" .Paragraphs}}</p:txBody></p:sp>{{end}}{{end}}
{{- define "tree"}}<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>{{range .}}{{template "shape" .}}{{end}}</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>{{end}}
{{- define "slide"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld ` + namespaces + `>{{template "tree" .Shapes}}</p:sld>{{end}}
{{- define "notes"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes ` + namespaces + `>{{template "tree" .Shapes}}</p:notes>{{end}}`

const namespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

var slideTemplates = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"escape": EscapeXML,
}).Parse(slideTemplateText))

type paragraphData struct {
	Level int
	Lines []string
}

type shapeData struct {
	ID         int
	Name       string
	PhType     string
	PhIdx      int
	Paragraphs []paragraphData
	ImageRID   string
	Descr      string
}

type partData struct {
	Shapes []shapeData
}

// executeTemplate renders one of the named part templates ("slide" or "notes")
func executeTemplate(name string, data partData) ([]byte, error) {
	var buf bytes.Buffer
	if err := slideTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, &TemplateError{Message: "failed to render " + name, Cause: err}
	}
	return buf.Bytes(), nil
}

// textParagraphs turns free text into a single paragraph, keeping line breaks
func textParagraphs(text string) []paragraphData {
	if text == "" {
		return nil
	}
	return []paragraphData{{Lines: strings.Split(text, "\n")}}
}

// notesParagraphs gives every non-empty line of speaker notes its own paragraph
func notesParagraphs(text string) []paragraphData {
	var paragraphs []paragraphData
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		paragraphs = append(paragraphs, paragraphData{Lines: []string{line}})
	}
	return paragraphs
}

func clampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > maxOutlineLevel:
		return maxOutlineLevel
	}
	return level
}
