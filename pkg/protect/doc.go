// Package protect provides reversible byte transforms used to keep stored
// SMTP credentials unreadable to other local users.
package protect
