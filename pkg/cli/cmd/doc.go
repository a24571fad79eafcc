// Package cmd implements the cobra command tree for the smtpmailer CLI:
// profile management, sending messages, mailing the output of a command, and
// shell completion.
package cmd
