// Package profile stores named SMTP connection profiles as one file per
// profile under a per-user directory, optionally passing the serialized bytes
// through a protect.Protector before they reach the disk.
package profile
