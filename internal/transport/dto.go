package transport

type CreateProductRequest struct {
	CategoryID  string  `json:"category_id"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price"`
	BasePrice   float64 `json:"base_price"`
	Currency    string  `json:"currency"`
	Quantity    *int    `json:"available_quantity"`
}

// UpdateProductRequest uses pointer fields so an omitted field can be told
// apart from an explicit zero value.
type UpdateProductRequest struct {
	CategoryID  *string  `json:"category_id"`
	Category    *string  `json:"category"`
	Title       *string  `json:"title"`
	Subtitle    *string  `json:"subtitle"`
	Author      *string  `json:"author"`
	Description *string  `json:"description"`
	ISBN        *string  `json:"isbn"`
	Price       *float64 `json:"price"`
	BasePrice   *float64 `json:"base_price"`
	Currency    *string  `json:"currency"`
	Quantity    *int     `json:"available_quantity"`
}

type DataResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	TokenType string `json:"token_type"`
}

type AuthConfigResponse struct {
	SupabaseURL     string `json:"supabaseUrl"`
	SupabaseAnonKey string `json:"supabaseAnonKey"`
	RedirectURL     string `json:"redirectUrl"`
}

type HealthResponse struct {
	Status      string            `json:"status"`
	Services    map[string]string `json:"services"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
}
