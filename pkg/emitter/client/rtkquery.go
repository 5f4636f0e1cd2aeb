package client

import "github.com/blimu-dev/spec-sync/pkg/ir"

// RTKQueryEmitter renders a Redux Toolkit Query api slice with one
// builder endpoint per descriptor plus the auto-generated hook exports.
type RTKQueryEmitter struct{}

func (RTKQueryEmitter) Type() string { return "rtk-query" }

func (RTKQueryEmitter) Render(eps []ir.Endpoint, opts Options) (ir.File, error) {
	return render("rtk-query", rtkQueryTemplate, eps, opts)
}

const rtkQueryTemplate = `{{ .Header }}
import { createApi, fetchBaseQuery } from "@reduxjs/toolkit/query/react";
{{- if .ImportTypes }}
import type { {{ join ", " .ImportTypes }} } from "{{ .TypesImport }}";
{{- end }}

export const {{ .APICamel }}Api = createApi({
  reducerPath: "{{ .APICamel }}Api",
  baseQuery: fetchBaseQuery({ baseUrl: "{{ .BaseURL }}" }),
  endpoints: (builder) => ({
{{- range .Endpoints }}
    {{ .Name }}: builder.{{ if .IsQuery }}query{{ else }}mutation{{ end }}<{{ if eq .ResponseType "void" }}void{{ else }}{{ .ResponseType }}{{ end }}, {{ .ArgObj }}>({
      query: ({{ if .Destructure }}{{ .Destructure }}{{ end }}) => ({
        url: {{ .PathExpr }},
        method: "{{ .Method }}",
{{- if .HasBody }}
        body,
{{- end }}
      }),
    }),
{{- end }}
  }),
});

export const {
{{- range .Endpoints }}
  use{{ .Pascal }}{{ if .IsQuery }}Query{{ else }}Mutation{{ end }},
{{- end }}
} = {{ .APICamel }}Api;
`
