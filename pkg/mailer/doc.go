// Package mailer renders markdown email templates and hands them to a Sender.
//
// Templates are markdown files with optional YAML front matter:
//
//	---
//	Subject: Welcome, {{.Username}}
//	---
//	Hi {{.Username}}, your account is ready.
//
//	[!button|Sign in]({{.LoginURL}})
//
// The body is executed with text/template, converted to HTML with goldmark
// and wrapped in an html/template layout that receives .Content and .Metadata.
// The executed markdown doubles as the plain text part.
//
// Providers live in subpackages (see mailer/resend). [LogSender] writes
// messages to a logger instead of delivering them.
package mailer
