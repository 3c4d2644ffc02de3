package site

import "html/template"

// Markup is deliberately minimal: the pages carry the structural content and
// navigation linkage only, styling is layered on separately.

var versePageTmpl = template.Must(template.New("verse").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.BookName}} {{.Chapter}}:{{.Verse}}</title>
<link rel="canonical" href="{{.CanonicalURL}}">
</head>
<body>
<header><img class="brand" src="{{.BrandImage}}" alt="{{.BookName}}"></header>
<main>
<h1>{{.BookName}} {{.Chapter}}:{{.Verse}}</h1>
<p class="verse-text">{{.Text}}</p>
<nav class="verse-nav">
{{if .PrevURL}}<a class="prev" rel="prev" href="{{.PrevURL}}">Previous</a>
{{end}}<a class="up" href="{{.ChapterURL}}">{{.BookName}} {{.Chapter}}</a>
{{if .NextURL}}<a class="next" rel="next" href="{{.NextURL}}">Next</a>
{{end}}</nav>
</main>
</body>
</html>
`))

var chapterPageTmpl = template.Must(template.New("chapter").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.BookName}} {{.Chapter}}</title>
<link rel="canonical" href="{{.CanonicalURL}}">
</head>
<body>
<main>
<h1>{{.BookName}} {{.Chapter}}</h1>
<ol class="verse-list">
{{range .Verses}}<li><a href="{{.URL}}">{{$.BookName}} {{$.Chapter}}:{{.Number}}</a></li>
{{end}}</ol>
</main>
</body>
</html>
`))

var bookPageTmpl = template.Must(template.New("book").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.BookName}}</title>
<link rel="canonical" href="{{.CanonicalURL}}">
</head>
<body>
<main>
<h1>{{.BookName}}</h1>
<p><a class="start" href="{{.FirstVerseURL}}">Start reading {{.BookName}}</a></p>
<ol class="chapter-list">
{{range .Chapters}}<li><a href="{{.URL}}">{{$.BookName}} {{.Number}}</a></li>
{{end}}</ol>
</main>
</body>
</html>
`))

var rootRedirectTmpl = template.Must(template.New("root").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url={{.Target}}">
<link rel="canonical" href="{{.Target}}">
<title>Redirecting</title>
</head>
<body>
<a id="redirect" href="{{.Target}}">Continue to the first verse</a>
</body>
</html>
`))
