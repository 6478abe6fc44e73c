package media

// File carries a single uploaded file through the gateway.
type File struct {
	Name    string
	Content []byte
}

// Derivative is a CDN-generated resized variant of an uploaded image. The
// CDN produces derivatives asynchronously; callers must not assume they
// exist immediately after the upload response.
type Derivative struct {
	Transformation string `json:"transformation,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	URL            string `json:"url,omitempty"`
	SecureURL      string `json:"secure_url,omitempty"`
	Status         string `json:"status,omitempty"`
}

// UploadResult is the CDN's acknowledgment of a stored image.
type UploadResult struct {
	PublicID  string       `json:"public_id"`
	SecureURL string       `json:"secure_url"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Format    string       `json:"format"`
	Bytes     int64        `json:"bytes"`
	CreatedAt string       `json:"created_at"`
	Eager     []Derivative `json:"eager,omitempty"`
}

// Asset is one entry of a folder-scoped search listing.
type Asset struct {
	PublicID  string            `json:"public_id"`
	SecureURL string            `json:"secure_url"`
	Format    string            `json:"format,omitempty"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
	Bytes     int64             `json:"bytes,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// SearchResult is the full listing returned by a folder-scoped search.
type SearchResult struct {
	TotalCount int     `json:"total_count"`
	Assets     []Asset `json:"resources"`
}
