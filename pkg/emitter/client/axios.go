package client

import "github.com/blimu-dev/spec-sync/pkg/ir"

// AxiosEmitter renders promise-based wrappers over a shared axios
// instance.
type AxiosEmitter struct{}

func (AxiosEmitter) Type() string { return "axios" }

func (AxiosEmitter) Render(eps []ir.Endpoint, opts Options) (ir.File, error) {
	return render("axios", axiosTemplate, eps, opts)
}

const axiosTemplate = `{{ .Header }}
import axios, { type AxiosRequestConfig } from "axios";
{{- if .ImportTypes }}
import type { {{ join ", " .ImportTypes }} } from "{{ .TypesImport }}";
{{- end }}

export const http = axios.create({ baseURL: "{{ .BaseURL }}" });
{{ range .Endpoints }}
export function {{ .Name }}({{ if .Params }}{{ .Params }}, {{ end }}config?: AxiosRequestConfig): Promise<{{ .ResponseType }}> {
  return http
    .request<{{ if eq .ResponseType "void" }}unknown{{ else }}{{ .ResponseType }}{{ end }}>({
      url: {{ .PathExpr }},
      method: "{{ .Method }}",
{{- if .HasBody }}
      data: body,
{{- end }}
      ...config,
    })
{{- if eq .ResponseType "void" }}
    .then(() => undefined);
{{- else }}
    .then((res) => res.data);
{{- end }}
}
{{ end -}}
`
