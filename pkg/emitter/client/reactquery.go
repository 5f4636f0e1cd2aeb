package client

import "github.com/blimu-dev/spec-sync/pkg/ir"

// ReactQueryEmitter renders @tanstack/react-query hooks: useQuery for
// GET endpoints and useMutation for everything else.
type ReactQueryEmitter struct{}

func (ReactQueryEmitter) Type() string { return "react-query" }

func (ReactQueryEmitter) Render(eps []ir.Endpoint, opts Options) (ir.File, error) {
	return render("react-query", reactQueryTemplate, eps, opts)
}

const reactQueryTemplate = `{{ .Header }}
import { useQuery, useMutation } from "@tanstack/react-query";
{{- if .ImportTypes }}
import type { {{ join ", " .ImportTypes }} } from "{{ .TypesImport }}";
{{- end }}

const BASE_URL = "{{ .BaseURL }}";

async function request<T>(path: string, init: RequestInit): Promise<T> {
  const res = await fetch(BASE_URL + path, init);
  if (!res.ok) {
    throw new Error("request failed with status " + res.status);
  }
  return (await res.json().catch(() => undefined)) as T;
}
{{ range .Endpoints }}
{{- if .IsQuery }}
export function {{ .HookName }}({{ if .Params }}{{ .Params }}{{ end }}) {
  return useQuery({
    queryKey: [{{ .KeyArgs }}],
    queryFn: () => request<{{ .ResponseType }}>({{ .PathExpr }}, { method: "{{ .Method }}" }),
  });
}
{{- else }}
export function {{ .HookName }}() {
  return useMutation({
    mutationFn: ({{ if .Destructure }}{{ .Destructure }}: {{ .ArgObj }}{{ end }}) =>
      request<{{ .ResponseType }}>({{ .PathExpr }}, {
        method: "{{ .Method }}",
{{- if .HasBody }}
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(body),
{{- end }}
      }),
  });
}
{{- end }}
{{ end -}}
`
