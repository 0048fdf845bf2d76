package scheduler

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/example/vocabsrs/internal/notify"
	"github.com/example/vocabsrs/pkg/models"
)

type dailyReminderData struct {
	Name       string
	Due        int
	Streak     int
	Plan       *models.Plan
	AppBaseURL string
}

type planReminderData struct {
	Name       string
	Plan       *models.Plan
	Due        int
	AppBaseURL string
}

type weeklyReportData struct {
	Name       string
	Summary    models.WeeklySummary
	WeakWords  []models.WeakWord
	Location   *time.Location
	AppBaseURL string
}

var funcs = map[string]any{
	"plural": pluralize,
	"percent": func(rate float64) string {
		return fmt.Sprintf("%.0f%%", rate*100)
	},
}

const htmlLayout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{template "title" .}}</h1></div>
		<div class="content">
			<p>Hi {{.Name}},</p>
			{{template "body" .}}
			{{if .AppBaseURL}}<p style="text-align: center;"><a href="{{.AppBaseURL}}/review" class="button">Start reviewing</a></p>{{end}}
		</div>
		<div class="footer"><p>You receive this because reminders are enabled in your settings.</p></div>
	</div>
</body>
</html>{{end}}`

var (
	dailyHTML = htmltemplate.Must(htmltemplate.New("daily").Funcs(funcs).Parse(htmlLayout + `
{{define "title"}}Time to review{{end}}
{{define "body"}}
<p>You have <strong>{{.Due}}</strong> {{plural .Due "word" "words"}} due for review.</p>
{{if .Streak}}<p>Current streak: <strong>{{.Streak}}</strong> {{plural .Streak "day" "days"}}. Keep it going!</p>{{end}}
{{with .Plan}}<p>Plan <strong>{{.Name}}</strong>: {{.LearnedWords}} words learned, {{.ReviewedWords}} reviewed, {{.DaysCompleted}} days completed.</p>{{end}}
{{end}}`))

	dailyText = texttemplate.Must(texttemplate.New("daily").Funcs(funcs).Parse(`Hi {{.Name}},

You have {{.Due}} {{plural .Due "word" "words"}} due for review.
{{if .Streak}}Current streak: {{.Streak}} {{plural .Streak "day" "days"}}.
{{end}}{{with .Plan}}Plan "{{.Name}}": {{.LearnedWords}} words learned, {{.ReviewedWords}} reviewed, {{.DaysCompleted}} days completed.
{{end}}{{if .AppBaseURL}}
Start reviewing: {{.AppBaseURL}}/review
{{end}}`))

	planHTML = htmltemplate.Must(htmltemplate.New("plan").Funcs(funcs).Parse(htmlLayout + `
{{define "title"}}{{.Plan.Name}}{{end}}
{{define "body"}}
<p>Today's targets: <strong>{{.Plan.DailyNewWordsTarget}}</strong> new {{plural .Plan.DailyNewWordsTarget "word" "words"}} and <strong>{{.Plan.DailyReviewWordsTarget}}</strong> {{plural .Plan.DailyReviewWordsTarget "review" "reviews"}}.</p>
<p>{{.Due}} {{plural .Due "word is" "words are"}} waiting for review.</p>
<p>Progress so far: {{.Plan.LearnedWords}} words learned, {{.Plan.ReviewedWords}} reviewed, {{.Plan.DaysCompleted}} days completed.</p>
{{end}}`))

	planText = texttemplate.Must(texttemplate.New("plan").Funcs(funcs).Parse(`Hi {{.Name}},

Today's targets for "{{.Plan.Name}}": {{.Plan.DailyNewWordsTarget}} new {{plural .Plan.DailyNewWordsTarget "word" "words"}} and {{.Plan.DailyReviewWordsTarget}} {{plural .Plan.DailyReviewWordsTarget "review" "reviews"}}.
{{.Due}} {{plural .Due "word is" "words are"}} waiting for review.
Progress so far: {{.Plan.LearnedWords}} words learned, {{.Plan.ReviewedWords}} reviewed, {{.Plan.DaysCompleted}} days completed.
{{if .AppBaseURL}}
Start reviewing: {{.AppBaseURL}}/review
{{end}}`))

	weeklyHTML = htmltemplate.Must(htmltemplate.New("weekly").Funcs(funcs).Parse(htmlLayout + `
{{define "title"}}Your week in words{{end}}
{{define "body"}}
<ul>
	<li>Days learned: <strong>{{.Summary.DaysLearned}}</strong></li>
	<li>New words: <strong>{{.Summary.NewWordsLearned}}</strong></li>
	<li>Words reviewed: <strong>{{.Summary.WordsReviewed}}</strong></li>
	<li>Total reviews: <strong>{{.Summary.TotalReviews}}</strong></li>
</ul>
{{if .WeakWords}}<p>Words that need more practice:</p>
<ul>{{range .WeakWords}}
	<li>{{.Text}} ({{percent .ErrorRate}} wrong over {{.TotalAttempts}} answers)</li>{{end}}
</ul>{{end}}
{{end}}`))

	weeklyText = texttemplate.Must(texttemplate.New("weekly").Funcs(funcs).Parse(`Hi {{.Name}},

Your week in words:
- Days learned: {{.Summary.DaysLearned}}
- New words: {{.Summary.NewWordsLearned}}
- Words reviewed: {{.Summary.WordsReviewed}}
- Total reviews: {{.Summary.TotalReviews}}
{{if .WeakWords}}
Words that need more practice:
{{range .WeakWords}}- {{.Text}} ({{percent .ErrorRate}} wrong over {{.TotalAttempts}} answers)
{{end}}{{end}}{{if .AppBaseURL}}
Start reviewing: {{.AppBaseURL}}/review
{{end}}`))
)

func render(html *htmltemplate.Template, text *texttemplate.Template, data any) (string, string, error) {
	var h, t bytes.Buffer
	if err := html.ExecuteTemplate(&h, "layout", data); err != nil {
		return "", "", fmt.Errorf("failed to render html: %w", err)
	}
	if err := text.Execute(&t, data); err != nil {
		return "", "", fmt.Errorf("failed to render text: %w", err)
	}
	return h.String(), strings.TrimSpace(t.String()) + "\n", nil
}

func composeDailyReminder(data dailyReminderData) (notify.Message, error) {
	html, text, err := render(dailyHTML, dailyText, data)
	if err != nil {
		return notify.Message{}, err
	}
	subject := "Keep your vocabulary fresh"
	if data.Due > 0 {
		subject = fmt.Sprintf("%d %s due for review", data.Due, pluralize(data.Due, "word", "words"))
	}
	return notify.Message{Subject: subject, HTML: html, Text: text}, nil
}

func composePlanReminder(data planReminderData) (notify.Message, error) {
	html, text, err := render(planHTML, planText, data)
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{Subject: fmt.Sprintf("Study plan reminder: %s", data.Plan.Name), HTML: html, Text: text}, nil
}

func composeWeeklyReport(data weeklyReportData) (notify.Message, error) {
	html, text, err := render(weeklyHTML, weeklyText, data)
	if err != nil {
		return notify.Message{}, err
	}
	loc := data.Location
	if loc == nil {
		loc = time.UTC
	}
	subject := fmt.Sprintf("Your weekly report: %s - %s",
		data.Summary.From.In(loc).Format("Jan 2"),
		data.Summary.To.In(loc).Format("Jan 2"))
	return notify.Message{Subject: subject, HTML: html, Text: text}, nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
