package render

// The event block is a two-column simple table; pandoc's simple_tables
// extension picks it up as such. Headings carry {#...} attributes for
// cross links.

const fullTemplate = `# Events
{{range .Events}}
## {{.title}} {#event-{{anchor .unique_id}}}

__________  ____
Title       {{.title}}
People      {{people .people}}
Time        {{friendlyTimeOffset .start}}
Duration    {{friendlyDuration .duration}}
Date        {{friendlyDate .start}}
Room        [{{.room}}](#room-{{anchor .room}})
__________  ____
{{if .brief}}
{{.brief}}
{{end}}{{end}}
# Rooms
{{range $room := .Rooms}}
## {{$room.Name}} {#room-{{anchor $room.Name}}}
{{range $d := $room.Days}}
### Day {{$d.Number}}, {{friendlyDate $d.Date}}

{{range $ev := $d.Events}}* {{friendlyTime $ev.start}} [{{$ev.title}}](#event-{{anchor $ev.unique_id}})
{{end}}{{end}}{{end}}
# Days
{{range $day := .Days}}
## Day {{$day.Number}}, {{friendlyDate $day.Date}} {#day-{{$day.Number}}}
{{range $r := $day.Rooms}}
### {{$r.Name}}

{{range $ev := $r.Events}}* {{friendlyTime $ev.start}} [{{$ev.title}}](#event-{{anchor $ev.unique_id}})
{{end}}{{end}}{{end}}`

const inlineTemplate = `# Events
{{range .Events}}
## {{.title}}

__________  ____
Title       {{.title}}
Time        {{friendlyTimeOffset .start}}
Duration    {{friendlyDuration .duration}}
Date        {{friendlyDate .start}}
Room        {{.room}}
__________  ____
{{end}}`
