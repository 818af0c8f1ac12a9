package handlers

type createCategoryRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// Price is a pointer so that an explicit 0 passes "required".
type createProductRequest struct {
	Name       string `json:"name" binding:"required,max=128"`
	Price      *int64 `json:"price" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required,gt=0"`
}

type createClientRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,max=128,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type createOrderRequest struct {
	ClientID   uint   `json:"client_id" binding:"required,gt=0"`
	ProductIDs []uint `json:"product_ids" binding:"required,min=1,unique,dive,gt=0"`
}
