package main

import "embed"

//go:embed configs assets
var content embed.FS
