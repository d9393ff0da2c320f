package models

import "time"

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"
)

// Node is a single record in the flat, path-keyed node set. The hierarchy is
// never stored as a tree: Path holds the absolute location of the node's
// parent directory ("/" for the root) and membership is decided by string
// comparison on Path alone.
type Node struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	NodeType    string    `json:"node_type"`
	Path        string    `json:"path"`
	SizeBytes   *int64    `json:"size_bytes,omitempty"`
	MimeType    *string   `json:"mime_type,omitempty"`
	BlobRef     *string   `json:"blob_ref,omitempty"`
	DownloadURL *string   `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

func (n *Node) IsFolder() bool {
	return n.NodeType == NodeTypeFolder
}

// Location returns the node's own absolute location, i.e. the Path value its
// children carry when the node is a folder.
func (n *Node) Location() string {
	if n.Path == "/" {
		return "/" + n.Name
	}
	return n.Path + "/" + n.Name
}
