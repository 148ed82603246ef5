package portfolio

type CreateItemRequest struct {
	Title       string `json:"title" binding:"required,min=2"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	ProjectURL  string `json:"project_url"`
	SortOrder   int    `json:"sort_order"`
	Published   bool   `json:"published"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	ProjectURL  *string `json:"project_url"`
	SortOrder   *int    `json:"sort_order"`
	Published   *bool   `json:"published"`
}

type AddImageRequest struct {
	URL       string `json:"url" binding:"required"`
	ObjectKey string `json:"object_key"`
	Caption   string `json:"caption"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
}
