package server

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// pageTemplates holds the server-rendered HTML pages. The markup is kept
// deliberately plain; the pages exist to carry the blog's flows, not a UI.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} - Inkwell</title></head>
<body>
<nav>
  <a href="/">Home</a>
  <a href="/articles">Articles</a>
  <a href="/about">About</a>
  <a href="/contact">Contact</a>
  <a href="/feedback">Feedback</a>
  {{if .CurrentUser}}
  <a href="/create-article">New article</a>
  <a href="/logout">Log out ({{.CurrentUser.Name}})</a>
  {{else}}
  <a href="/login">Log in</a>
  <a href="/register">Register</a>
  {{end}}
</nav>
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "index"}}{{template "head" .}}
<h1>Latest articles</h1>
<p>Today is {{.Today}}</p>
<ul>
{{range .Articles}}
  <li><a href="/article/{{.ID}}">{{.Title}}</a> <em>{{.Category}}</em> {{.CreatedDate.Format "2006-01-02"}}</li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "about"}}{{template "head" .}}
<h1>About</h1>
<p>Inkwell is a small blog where anyone can read and registered authors can write.</p>
{{template "foot" .}}{{end}}

{{define "contact"}}{{template "head" .}}
<h1>Contact</h1>
<p>Reach the editors at editors@inkwell.local.</p>
{{template "foot" .}}{{end}}

{{define "feedback"}}{{template "head" .}}
<h1>Feedback</h1>
{{if .Submitted}}
<p>Thank you, {{.Name}}! We will reply to {{.Email}}.</p>
{{else}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/feedback">
  <input name="name" placeholder="Name" value="{{.Name}}">
  <input name="email" placeholder="Email" value="{{.Email}}">
  <textarea name="message" placeholder="Message">{{.Message}}</textarea>
  <button type="submit">Send</button>
</form>
{{end}}
{{template "foot" .}}{{end}}

{{define "articles"}}{{template "head" .}}
<h1>Articles</h1>
<form method="get" action="/articles">
  <input name="category" placeholder="Category" value="{{.Category}}">
  <select name="sort">
    <option value="newer" {{if eq .Sort "newer"}}selected{{end}}>Newer first</option>
    <option value="older" {{if eq .Sort "older"}}selected{{end}}>Older first</option>
  </select>
  <button type="submit">Apply</button>
</form>
<ul>
{{range .Articles}}
  <li><a href="/article/{{.ID}}">{{.Title}}</a> <em>{{.Category}}</em> {{.CreatedDate.Format "2006-01-02"}}</li>
{{else}}
  <li>No articles yet.</li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "article"}}{{template "head" .}}
<h1>{{.Article.Title}}</h1>
<p><em>{{.Article.Category}}</em> — {{.Article.CreatedDate.Format "2006-01-02 15:04"}}{{if .Author}} by {{.Author}}{{end}}</p>
<div>{{.Article.Text}}</div>
{{if .IsOwner}}
<p><a href="/edit-article/{{.Article.ID}}">Edit</a> <a href="/delete-article/{{.Article.ID}}">Delete</a></p>
{{end}}
<h2>Comments</h2>
<ul>
{{range .Comments}}
  <li><strong>{{.AuthorName}}</strong> ({{.Date.Format "2006-01-02 15:04"}}): {{.Text}}</li>
{{else}}
  <li>No comments yet.</li>
{{end}}
</ul>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/article/{{.Article.ID}}">
  <input name="author_name" placeholder="Your name">
  <textarea name="comment_text" placeholder="Your comment"></textarea>
  <button type="submit">Comment</button>
</form>
{{template "foot" .}}{{end}}

{{define "article_form"}}{{template "head" .}}
<h1>{{.Heading}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
  <input name="title" placeholder="Title" value="{{.FormTitle}}">
  <input name="category" placeholder="Category" value="{{.FormCategory}}">
  <textarea name="text" placeholder="Text">{{.FormText}}</textarea>
  <button type="submit">Save</button>
</form>
{{template "foot" .}}{{end}}

{{define "success"}}{{template "head" .}}
<h1>{{.Message}}</h1>
<p><a href="/articles">Back to articles</a></p>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}
<h1>Log in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input name="email" placeholder="Email" value="{{.Email}}">
  <input name="password" type="password" placeholder="Password">
  <label><input name="remember" type="checkbox" value="on"> Remember me</label>
  <button type="submit">Log in</button>
</form>
{{template "foot" .}}{{end}}

{{define "register"}}{{template "head" .}}
<h1>Register</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/register">
  <input name="name" placeholder="Name" value="{{.Name}}">
  <input name="email" placeholder="Email" value="{{.Email}}">
  <input name="password" type="password" placeholder="Password">
  <button type="submit">Register</button>
</form>
{{template "foot" .}}{{end}}

{{define "message"}}{{template "head" .}}
<h1>{{.Message}}</h1>
<p><a href="/">Back home</a></p>
{{template "foot" .}}{{end}}

{{define "not_found"}}{{template "head" .}}
<h1>Article not found</h1>
<p><a href="/articles">Back to articles</a></p>
{{template "foot" .}}{{end}}
`))

// renderPage executes a named template into the response with the session
// user merged into the data.
func renderPage(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = name
	}
	data["CurrentUser"] = currentUser(c)

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
