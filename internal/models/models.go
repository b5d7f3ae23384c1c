package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{}, &Category{}, &Business{}, &BusinessImage{}, &Enquiry{},
		&Review{}, &SiteSettings{}, &Notification{}, &AdminSession{},
	}
}
