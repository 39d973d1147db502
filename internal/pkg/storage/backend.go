// Package storage contém o adaptador de armazenamento persistente: um store de blobs
// indexado por chave string, com codificação JSON por cima.
package storage

import (
	"context"
	"errors"
)

// Chaves fixas do estado persistido.
const (
	KeyProducts   = "ecommerce_products"
	KeyOrders     = "ecommerce_orders"
	KeySettings   = "ecommerce_settings"
	KeyLastBackup = "ecommerce_last_backup"
)

// ErrKeyNotFound é retornado por Backend.Get quando a chave não existe.
var ErrKeyNotFound = errors.New("storage: key not found")

// Backend define o contrato de qualquer store durável de blobs texto.
// Cada Set substitui o blob inteiro de forma atômica do ponto de vista do leitor.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
