package models

// CartLine is one entry of the client-local cart, unique per product id.
// Quantity never exceeds the product's last-known stock.
type CartLine struct {
	Product
	Quantity int `json:"quantidade"`
}

type OrderItem struct {
	ProductID int `json:"id_produto"`
	Quantity  int `json:"quantidade"`
}

type OrderRequest struct {
	PaymentMethod string      `json:"forma_pagamento"`
	Items         []OrderItem `json:"itens"`
}

type OrderConfirmation struct {
	OrderID int    `json:"id_pedido"`
	Message string `json:"mensagem"`
}
