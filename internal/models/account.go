package models

type Address struct {
	CEP        string `json:"cep"`
	Street     string `json:"logradouro"`
	Number     string `json:"numero_endereco"`
	Complement string `json:"complemento_endereco"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"estado"`
}

type RegisterRequest struct {
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Password string  `json:"senha"`
	Phone    string  `json:"telefone"`
	Address  Address `json:"endereco"`

	// Store promotions: any of these grants the discount flag server-side.
	RootsForFlamengo bool `json:"torce_flamengo"`
	WatchesOnePiece  bool `json:"assiste_one_piece"`
	BornInSousa      bool `json:"natural_de_sousa"`
}

type Profile struct {
	ID          int     `json:"id"`
	Name        string  `json:"nome"`
	Email       string  `json:"email"`
	Phone       string  `json:"telefone"`
	Address     Address `json:"endereco"`
	HasDiscount bool    `json:"tem_desconto"`
}

type OrderHistoryEntry struct {
	OrderID       int         `json:"id_pedido"`
	PlacedAt      string      `json:"data_pedido"`
	PaymentMethod string      `json:"forma_pagamento"`
	Total         float64     `json:"valor_total"`
	Items         []OrderItem `json:"itens"`
}
