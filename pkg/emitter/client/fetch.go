package client

import "github.com/blimu-dev/spec-sync/pkg/ir"

// FetchEmitter renders zero-dependency wrappers over the browser fetch
// API: one async function per endpoint.
type FetchEmitter struct{}

func (FetchEmitter) Type() string { return "fetch" }

func (FetchEmitter) Render(eps []ir.Endpoint, opts Options) (ir.File, error) {
	return render("fetch", fetchTemplate, eps, opts)
}

const fetchTemplate = `{{ .Header }}
{{- if .ImportTypes }}
import type { {{ join ", " .ImportTypes }} } from "{{ .TypesImport }}";
{{- end }}

const BASE_URL = "{{ .BaseURL }}";
{{ range .Endpoints }}
export async function {{ .Name }}({{ if .Params }}{{ .Params }}, {{ end }}init?: Omit<RequestInit, "method" | "body">): Promise<{{ .ResponseType }}> {
  const res = await fetch(BASE_URL + {{ .PathExpr }}, {
    method: "{{ .Method }}",
{{- if .HasBody }}
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(body),
{{- end }}
    ...init,
  });
  if (!res.ok) {
    throw new Error("{{ .Name }} failed with status " + res.status);
  }
{{- if eq .ResponseType "void" }}
  await res.arrayBuffer();
{{- else }}
  return (await res.json()) as {{ .ResponseType }};
{{- end }}
}
{{ end -}}
`
