package view

import (
	"html/template"
	"io"
)

// html/template escapes every interpolated field for its context.
var listTemplate = template.Must(template.New("tasks").Parse(`{{if .EmptyVisible}}<div id="emptyState">No tasks yet. Add one to get started.</div>
{{end}}{{if .ListVisible}}<div id="taskList">
{{range .Items}}<div class="{{.Class}}" data-task-id="{{.ID}}">
  <div class="task-checkbox{{if .Completed}} checked{{end}}" data-action="toggle"></div>
  <div class="task-content">
    <div class="task-title">{{.Title}}</div>
{{if .Description}}    <div class="task-description">{{.Description}}</div>
{{end}}  </div>
  <div class="task-meta">
    <div class="task-date">Created: {{.Created}}</div>
    <div class="task-actions">
      <button data-action="edit">Edit</button>
      <button data-action="delete">Delete</button>
    </div>
  </div>
</div>
{{end}}</div>
{{end}}`))

// WriteHTML renders m as markup following the delegated click contract:
// items carry data-task-id and actionable elements carry data-action.
func WriteHTML(w io.Writer, m Model) error {
	return listTemplate.Execute(w, m)
}
