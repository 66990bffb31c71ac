package fakes3

import "time"

// Object is the response-shaped view of a stored item. It is rebuilt on
// every read and constructed fresh on every write; it is never persisted.
type Object struct {
	Name           string
	MD5            string
	ContentType    string
	Size           int64
	ModifiedDate   time.Time
	CustomMetadata map[string]string

	// Item is a back-reference to the persisted row the descriptor was
	// built from.
	Item *Item
}

// Bucket is an ephemeral container handle. Buckets are not first-class
// persisted entities in this store: the creation date is the wall clock at
// call time and the object list is never populated from the items table.
type Bucket struct {
	Name         string
	CreationDate time.Time
	Objects      []Object
}

// newObject assembles a descriptor from a persisted item and its decoded
// metadata record.
func newObject(name string, meta Metadata, item *Item) *Object {
	return &Object{
		Name:           name,
		MD5:            meta.MD5,
		ContentType:    meta.ContentType,
		Size:           meta.Size,
		ModifiedDate:   meta.ModifiedDate,
		CustomMetadata: meta.CustomMetadata,
		Item:           item,
	}
}
