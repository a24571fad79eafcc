// Package mail composes MIME messages for a profile and delivers them over a
// single authenticated SMTP session using implicit TLS or mandatory STARTTLS.
package mail
