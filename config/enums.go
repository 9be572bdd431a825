package config

//go:generate go tool go-enum --marshal --names

// Order in which directory entries are scanned.
// ENUM(natural, lexical)
type EntryOrder int
