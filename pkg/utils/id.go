package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRunID gera o código curto que identifica uma execução do pipeline.
func GenerateRunID() string {
	return gonanoid.MustGenerate(characters, 8)
}
