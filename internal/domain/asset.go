package domain

// AssetClass names a storage location for one kind of uploaded file. Each
// class maps to its own directory (or object-key prefix) in the file store.
type AssetClass string

const (
	AssetClassVideos   AssetClass = "videos"
	AssetClassContents AssetClass = "contents"
	AssetClassGenres   AssetClass = "genres"
)
