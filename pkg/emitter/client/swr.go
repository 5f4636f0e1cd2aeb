package client

import "github.com/blimu-dev/spec-sync/pkg/ir"

// SWREmitter renders stale-while-revalidate hooks: useSWR for GET
// endpoints, plain async mutators for the rest.
type SWREmitter struct{}

func (SWREmitter) Type() string { return "swr" }

func (SWREmitter) Render(eps []ir.Endpoint, opts Options) (ir.File, error) {
	return render("swr", swrTemplate, eps, opts)
}

const swrTemplate = `{{ .Header }}
import useSWR from "swr";
{{- if .ImportTypes }}
import type { {{ join ", " .ImportTypes }} } from "{{ .TypesImport }}";
{{- end }}

const BASE_URL = "{{ .BaseURL }}";

async function fetcher<T>(path: string, init?: RequestInit): Promise<T> {
  const res = await fetch(BASE_URL + path, init);
  if (!res.ok) {
    throw new Error("request failed with status " + res.status);
  }
  return (await res.json().catch(() => undefined)) as T;
}
{{ range .Endpoints }}
{{- if .IsQuery }}
export function {{ .HookName }}({{ if .Params }}{{ .Params }}{{ end }}) {
  return useSWR([{{ .KeyArgs }}], () => fetcher<{{ .ResponseType }}>({{ .PathExpr }}));
}
{{- else }}
export async function {{ .Name }}({{ if .Params }}{{ .Params }}{{ end }}): Promise<{{ .ResponseType }}> {
  return fetcher<{{ .ResponseType }}>({{ .PathExpr }}, {
    method: "{{ .Method }}",
{{- if .HasBody }}
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(body),
{{- end }}
  });
}
{{- end }}
{{ end -}}
`
