package handlers

import "github.com/judyrop/shop-api/models"

type productResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	CategoryID uint   `json:"category_id"`
}

type categoryResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	Products []productResponse `json:"products"`
}

// clientResponse never carries the password hash.
type clientResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	ID       uint              `json:"id"`
	ClientID uint              `json:"client_id"`
	Client   clientResponse    `json:"client"`
	Products []productResponse `json:"products"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
	}
}

func newProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

func newCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Products: newProductResponses(c.Products),
	}
}

func newCategoryResponses(categories []models.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

func newClientResponse(c models.Client) clientResponse {
	return clientResponse{ID: c.ID, Name: c.Name, Email: c.Email}
}

func newClientResponses(clients []models.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, newClientResponse(c))
	}
	return out
}

func newOrderResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:       o.ID,
		ClientID: o.ClientID,
		Client:   newClientResponse(o.Client),
		Products: newProductResponses(o.Products),
	}
}

func newOrderResponses(orders []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return out
}
