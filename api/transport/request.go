package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"dueDate"`
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type PermissionRequest struct {
	Permission string `json:"permission"`
}
