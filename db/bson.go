package db

import "go.mongodb.org/mongo-driver/bson"

// bsonD builds an ascending index key document from field names.
func bsonD(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, bson.E{Key: field, Value: 1})
	}
	return keys
}
