package response

type DocumentSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Scope         string `json:"scope"`
	Active        bool   `json:"active"`
	Changed       bool   `json:"changed"`
	SharedObjects int    `json:"sharedObjects"`
}

type DocumentWithObjects struct {
	DocumentSummary
	Objects []SharedObject `json:"objects"`
}

// SharedObject wraps any shared capable object. Content holds the
// kind-specific fields.
type SharedObject struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Shared   bool   `json:"shared"`
	ObjectID uint   `json:"objectId,omitempty"`
	Content  any    `json:"content"`
}

type SyncResult struct {
	Updated     int      `json:"updated"`
	DocumentIDs []string `json:"documentIds"`
}

type EditResult struct {
	Object SharedObject `json:"object"`
	Sync   SyncResult   `json:"sync"`
}

type SaveResult struct {
	DocumentID   string `json:"documentId"`
	NewObjectIDs int    `json:"newObjectIds"`
}
