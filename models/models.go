package models

// All lists the tables managed by migrations.
func All() []interface{} {
	return []interface{}{&User{}, &Category{}, &Post{}, &Comment{}}
}
