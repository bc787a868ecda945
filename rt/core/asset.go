package core

import "github.com/google/uuid"

// AssetID is an opaque handle for a device-owned resource (mesh, texture).
type AssetID string

func NewAssetID() AssetID {
	return AssetID(uuid.NewString())
}

// Valid reports whether id was issued, i.e. is a well-formed uuid.
func (id AssetID) Valid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
