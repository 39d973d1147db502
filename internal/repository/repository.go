// Package repository reúne o que é comum aos repositórios de coleção inteira.
package repository

import "errors"

// ErrNoChange pode ser devolvido pela função de Mutate para indicar que nada deve ser gravado.
var ErrNoChange = errors.New("repository: coleção inalterada")
