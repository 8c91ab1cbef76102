package emitter

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	fragmentPreamble = "preamble"
	fragmentBuild    = "build"
	fragmentDeploy   = "deploy"
	fragmentClosing  = "closing"
)

// Every interpolated model value passes through sq.

const preambleFragment = `pipeline {
    agent { docker { image {{ .AgentImage | default "` + DefaultAgentImage + `" | sq }} } }
}
`

const buildFragment = `    stage({{ sq .Stage }}) {
        sh {{ sq .Command }}
{{ range .Args }}        sh {{ sq . }}
{{ end }}    }
`

const deployFragment = `    stage({{ sq .Stage }}) {
        {{ .Opener }}
            artifact {{ sq .Artifact }}
            namespace {{ sq .Namespace }}
        }
    }
`

const closingFragment = `}
`

type preambleData struct {
	AgentImage string
}

type buildData struct {
	Stage   string
	Command string
	Args    []string
}

type deployData struct {
	Stage     string
	Opener    string
	Artifact  string
	Namespace string
}

var fragments = parseFragments()

func parseFragments() *template.Template {
	funcs := sprig.TxtFuncMap()
	funcs["sq"] = Quote

	root := template.New("pipeline").Funcs(funcs)
	for _, f := range []struct{ name, text string }{
		{fragmentPreamble, preambleFragment},
		{fragmentBuild, buildFragment},
		{fragmentDeploy, deployFragment},
		{fragmentClosing, closingFragment},
	} {
		template.Must(root.New(f.name).Parse(f.text))
	}
	return root
}
