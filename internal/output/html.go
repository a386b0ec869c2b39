package output

import (
	"html/template"
	"io"

	"tasktrack/internal/service"
)

// taskListTemplate mirrors the task card markup of the web client.
// html/template escapes task text and ids.
var taskListTemplate = template.Must(template.New("tasks").Parse(
	`{{if .}}<div class="tasks-list">
{{range .}}  <div class="task-card{{if .Completed}} completed{{end}}" data-task-id="{{.ID}}">
    <div class="task-checkbox{{if .Completed}} checked{{end}}"></div>
    <div class="task-text{{if .Completed}} strike{{end}}">{{.Text}}</div>
  </div>
{{end}}</div>
{{else}}<div class="no-tasks">No tasks yet. Add one above!</div>
{{end}}`))

// RenderHTML writes the task list as an HTML fragment.
func RenderHTML(w io.Writer, list []service.Task) error {
	return taskListTemplate.Execute(w, list)
}
