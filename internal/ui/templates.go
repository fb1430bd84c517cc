package ui

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"money": func(v float64) string {
		return fmt.Sprintf("£%.2f", v)
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"seq": func(from, to int) []int {
		if to < from {
			return nil
		}
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
	"urlquery": func(s string) string {
		return template.URLQueryEscaper(s)
	},
	"statusColor": func(status string) string {
		switch status {
		case "new":
			return "bg-blue-100 text-blue-800"
		case "contacted":
			return "bg-yellow-100 text-yellow-800"
		case "closed":
			return "bg-gray-100 text-gray-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
}

// renderTemplate renders a named page template inside the layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	if _, err = tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}
	return tmpl.Execute(w, data)
}

// templates holds all template content, keyed by page name.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .Session}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">
                        DealerDash
                    </a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-6">
                        <a href="/" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Dashboard
                        </a>
                        {{range .Nav}}
                        <a href="/{{.Slug}}" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            {{.Title}}
                        </a>
                        {{end}}
                    </div>
                </div>
                <div class="flex items-center">
                    <span class="text-sm text-gray-500 mr-4">{{.Session.Name}}</span>
                    <a href="/logout" class="text-sm text-gray-500 hover:text-gray-700">Logout</a>
                </div>
            </div>
        </div>
    </nav>
    {{end}}

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"login": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center bg-gray-50 py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">
                DealerDash
            </h2>
            <p class="mt-2 text-center text-sm text-gray-600">
                Sign in to the dealership admin dashboard
            </p>
        </div>
        {{if .Error}}
        <div class="rounded-md bg-red-50 p-4">
            <div class="text-sm text-red-700">{{.Error}}</div>
        </div>
        {{end}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <div class="rounded-md shadow-sm -space-y-px">
                <div>
                    <label for="email" class="sr-only">Email</label>
                    <input id="email" name="email" type="email" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-t-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Email address">
                </div>
                <div>
                    <label for="password" class="sr-only">Password</label>
                    <input id="password" name="password" type="password" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-b-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Password">
                </div>
            </div>
            <div>
                <button type="submit"
                        class="group relative w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700 focus:outline-none focus:ring-2 focus:ring-offset-2 focus:ring-indigo-500">
                    Sign in
                </button>
            </div>
        </form>
    </div>
</div>
{{end}}`,

	"dashboard": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-8">
        <h1 class="text-2xl font-semibold text-gray-900">Dashboard</h1>
        <p class="mt-1 text-sm text-gray-500">Welcome back, {{.Session.Name}}</p>
    </div>

    {{if .Error}}
    <div class="rounded-md bg-red-50 p-4 mb-6">
        <div class="text-sm text-red-700">{{.Error}}</div>
    </div>
    {{end}}

    <div class="grid grid-cols-1 gap-5 sm:grid-cols-2 lg:grid-cols-4 mb-8">
        <div class="bg-white overflow-hidden shadow rounded-lg">
            <div class="p-5">
                <dt class="text-sm font-medium text-gray-500 truncate">Vehicles in Stock</dt>
                <dd class="text-2xl font-semibold text-gray-900">{{.Summary.VehicleCount}}</dd>
            </div>
        </div>
        <div class="bg-white overflow-hidden shadow rounded-lg">
            <div class="p-5">
                <dt class="text-sm font-medium text-gray-500 truncate">Open Enquiries</dt>
                <dd class="text-2xl font-semibold text-blue-600">{{.Summary.EnquiryCount}}</dd>
            </div>
        </div>
        <div class="bg-white overflow-hidden shadow rounded-lg">
            <div class="p-5">
                <dt class="text-sm font-medium text-gray-500 truncate">Sales</dt>
                <dd class="text-2xl font-semibold text-green-600">{{.Summary.SaleCount}}</dd>
            </div>
        </div>
        <div class="bg-white overflow-hidden shadow rounded-lg">
            <div class="p-5">
                <dt class="text-sm font-medium text-gray-500 truncate">Sales Total</dt>
                <dd class="text-2xl font-semibold text-green-600">{{money .Summary.SalesTotal}}</dd>
            </div>
        </div>
    </div>

    <div class="grid grid-cols-1 lg:grid-cols-2 gap-8">
        <div class="bg-white shadow rounded-lg">
            <div class="px-4 py-5 border-b border-gray-200 sm:px-6">
                <div class="flex justify-between items-center">
                    <h3 class="text-lg leading-6 font-medium text-gray-900">Enquiries by Status</h3>
                    <a href="/enquiries" class="text-sm text-indigo-600 hover:text-indigo-500">View all</a>
                </div>
            </div>
            <ul class="divide-y divide-gray-200">
                {{range $status, $count := .Summary.EnquiriesByStatus}}
                <li class="px-4 py-3 flex justify-between">
                    <span class="text-sm px-2 py-0.5 rounded {{statusColor $status}}">{{$status}}</span>
                    <span class="text-sm font-medium text-gray-900">{{$count}}</span>
                </li>
                {{end}}
            </ul>
        </div>
        <div class="bg-white shadow rounded-lg">
            <div class="px-4 py-5 border-b border-gray-200 sm:px-6">
                <div class="flex justify-between items-center">
                    <h3 class="text-lg leading-6 font-medium text-gray-900">Vehicles by Status</h3>
                    <a href="/vehicles" class="text-sm text-indigo-600 hover:text-indigo-500">View all</a>
                </div>
            </div>
            <ul class="divide-y divide-gray-200">
                {{range $status, $count := .Summary.VehiclesByStatus}}
                <li class="px-4 py-3 flex justify-between">
                    <span class="text-sm text-gray-700">{{$status}}</span>
                    <span class="text-sm font-medium text-gray-900">{{$count}}</span>
                </li>
                {{end}}
            </ul>
        </div>
    </div>

    <p class="mt-8 text-xs text-gray-400">Up {{.Uptime}}</p>
</div>
{{end}}`,

	"resource/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-6">
        <h1 class="text-2xl font-semibold text-gray-900">{{.Heading}}</h1>
        <div class="flex items-center space-x-3">
            <a href="/{{.Slug}}/export{{if .Query}}?{{.Query}}{{end}}"
               class="text-sm text-gray-500 hover:text-gray-700">Export CSV</a>
            <a href="/{{.Slug}}/new"
               class="inline-flex items-center px-4 py-2 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                New {{.Singular}}
            </a>
        </div>
    </div>

    {{if .Notice}}
    <div class="rounded-md bg-green-50 p-4 mb-4">
        <div class="text-sm text-green-700">{{.Notice}}</div>
    </div>
    {{end}}
    {{if .Error}}
    <div class="rounded-md bg-red-50 p-4 mb-4">
        <div class="text-sm text-red-700">{{.Error}}{{if .Stale}} (showing last known results){{end}}</div>
    </div>
    {{end}}

    <form method="GET" action="/{{.Slug}}" class="mb-4 flex flex-wrap items-end gap-3">
        {{if .Searchable}}
        <div>
            <label for="search" class="block text-xs font-medium text-gray-500">Search</label>
            <input id="search" name="search" type="text" value="{{.Search}}"
                   class="mt-1 block w-64 rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border">
        </div>
        {{end}}
        {{range .Filters}}
        <div>
            <label for="{{.Key}}" class="block text-xs font-medium text-gray-500">{{.Label}}</label>
            <select id="{{.Key}}" name="{{.Key}}"
                    class="mt-1 block rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border">
                <option value="">All</option>
                {{$selected := .Selected}}
                {{range .Options}}
                <option value="{{.Value}}" {{if eq .Value $selected}}selected{{end}}>{{.Label}}</option>
                {{end}}
            </select>
        </div>
        {{end}}
        <div>
            <label for="limit" class="block text-xs font-medium text-gray-500">Per page</label>
            <select id="limit" name="limit"
                    class="mt-1 block rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border">
                {{$limit := .Pager.Limit}}
                {{range $n := .PageSizes}}
                <option value="{{$n}}" {{if eq $n $limit}}selected{{end}}>{{$n}}</option>
                {{end}}
            </select>
        </div>
        <button type="submit"
                class="px-4 py-2 border border-gray-300 text-sm font-medium rounded-md text-gray-700 bg-white hover:bg-gray-50">
            Apply
        </button>
    </form>

    <div class="bg-white shadow rounded-lg overflow-hidden">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    {{range .Headers}}
                    <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">{{.}}</th>
                    {{end}}
                    <th class="px-4 py-3"></th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{$root := .}}
                {{range .Rows}}
                <tr class="hover:bg-gray-50">
                    {{range .Cells}}
                    <td class="px-4 py-3 text-sm text-gray-700">{{.}}</td>
                    {{end}}
                    <td class="px-4 py-3 text-sm text-right whitespace-nowrap">
                        <a href="/{{$root.Slug}}/{{.ID}}/edit" class="text-indigo-600 hover:text-indigo-500 mr-3">Edit</a>
                        {{if $root.HasToggle}}
                        <form method="POST" action="/{{$root.Slug}}/{{.ID}}/toggle" class="inline">
                            <input type="hidden" name="return" value="{{$root.Query}}&page={{$root.Pager.Page}}">
                            <button type="submit" class="text-gray-500 hover:text-gray-700 mr-3">
                                {{if .Active}}Deactivate{{else}}Activate{{end}}
                            </button>
                        </form>
                        {{end}}
                        {{if $root.CanDelete}}
                        <form method="POST" action="/{{$root.Slug}}/{{.ID}}/delete" class="inline"
                              onsubmit="return confirm('Delete this {{$root.Singular}}?')">
                            <input type="hidden" name="return" value="{{$root.Query}}&page={{$root.Pager.Page}}">
                            <button type="submit" class="text-red-600 hover:text-red-500">Delete</button>
                        </form>
                        {{end}}
                    </td>
                </tr>
                {{else}}
                <tr>
                    <td colspan="{{len .Headers}}" class="px-4 py-8 text-center text-sm text-gray-500">
                        No {{.Heading}} found
                    </td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>

    <div class="mt-4 flex items-center justify-between">
        <p class="text-sm text-gray-500">
            {{if gt .Pager.Total 0}}
            Showing {{.Pager.From}}–{{.Pager.To}} of {{.Pager.Total}}
            {{else}}
            No results
            {{end}}
        </p>
        <div class="flex items-center space-x-2">
            {{if .Pager.HasPrev}}
            <a href="/{{.Slug}}?page={{.Pager.Prev}}{{if .Query}}&{{.Query}}{{end}}"
               class="px-3 py-1 border border-gray-300 rounded-md text-sm text-gray-700 bg-white hover:bg-gray-50">Previous</a>
            {{else}}
            <span class="px-3 py-1 border border-gray-200 rounded-md text-sm text-gray-300">Previous</span>
            {{end}}
            <span class="text-sm text-gray-500">Page {{.Pager.Page}} of {{.Pager.Pages}}</span>
            {{if .Pager.HasNext}}
            <a href="/{{.Slug}}?page={{.Pager.Next}}{{if .Query}}&{{.Query}}{{end}}"
               class="px-3 py-1 border border-gray-300 rounded-md text-sm text-gray-700 bg-white hover:bg-gray-50">Next</a>
            {{else}}
            <span class="px-3 py-1 border border-gray-200 rounded-md text-sm text-gray-300">Next</span>
            {{end}}
        </div>
    </div>
</div>
{{end}}`,

	"resource/form": `{{define "content"}}
<div class="px-4 py-6 sm:px-0 max-w-2xl mx-auto">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">{{.Heading}}</h1>

    {{if .Error}}
    <div class="rounded-md bg-red-50 p-4 mb-4">
        <div class="text-sm text-red-700">{{.Error}}</div>
    </div>
    {{end}}

    <form method="POST" action="{{.Action}}" class="bg-white shadow rounded-lg p-6 space-y-5">
        {{range .Fields}}
        <div>
            {{if eq .Kind "checkbox"}}
            <label class="inline-flex items-center">
                <input type="checkbox" name="{{.Key}}" {{if .Checked}}checked{{end}}
                       class="rounded border-gray-300 text-indigo-600">
                <span class="ml-2 text-sm font-medium text-gray-700">{{.Label}}</span>
            </label>
            {{else}}
            <label for="{{.Key}}" class="block text-sm font-medium text-gray-700">
                {{.Label}}{{if .Required}} <span class="text-red-500">*</span>{{end}}
            </label>
            {{if eq .Kind "textarea"}}
            <textarea id="{{.Key}}" name="{{.Key}}" rows="4" placeholder="{{.Placeholder}}"
                      class="mt-1 block w-full rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border {{if .Error}}border-red-400{{end}}">{{.Value}}</textarea>
            {{else if eq .Kind "select"}}
            <select id="{{.Key}}" name="{{.Key}}"
                    class="mt-1 block w-full rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border {{if .Error}}border-red-400{{end}}">
                <option value="">—</option>
                {{$value := .Value}}
                {{range .Options}}
                <option value="{{.Value}}" {{if eq .Value $value}}selected{{end}}>{{.Label}}</option>
                {{end}}
            </select>
            {{else if eq .Kind "number"}}
            <input id="{{.Key}}" name="{{.Key}}" type="number" step="any" value="{{.Value}}" placeholder="{{.Placeholder}}"
                   class="mt-1 block w-full rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border {{if .Error}}border-red-400{{end}}">
            {{else if eq .Kind "date"}}
            <input id="{{.Key}}" name="{{.Key}}" type="date" value="{{.Value}}"
                   class="mt-1 block w-full rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border {{if .Error}}border-red-400{{end}}">
            {{else}}
            <input id="{{.Key}}" name="{{.Key}}" type="text" value="{{.Value}}" placeholder="{{.Placeholder}}"
                   class="mt-1 block w-full rounded-md border-gray-300 shadow-sm text-sm px-3 py-2 border {{if .Error}}border-red-400{{end}}">
            {{end}}
            {{end}}
            {{if .Error}}
            <p class="mt-1 text-sm text-red-600">{{.Error}}</p>
            {{end}}
        </div>
        {{end}}

        <div class="flex justify-end space-x-3 pt-2">
            <a href="{{.CancelURL}}"
               class="px-4 py-2 border border-gray-300 text-sm font-medium rounded-md text-gray-700 bg-white hover:bg-gray-50">Cancel</a>
            <button type="submit"
                    class="px-4 py-2 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                {{if .IsEdit}}Save changes{{else}}Create{{end}}
            </button>
        </div>
    </form>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="px-4 py-16 sm:px-0 text-center">
    <h1 class="text-2xl font-semibold text-gray-900 mb-2">Something went wrong</h1>
    <p class="text-sm text-gray-500">{{.Message}}</p>
    <a href="/" class="mt-6 inline-block text-sm text-indigo-600 hover:text-indigo-500">Back to dashboard</a>
</div>
{{end}}`,
}
