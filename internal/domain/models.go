package domain

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&PropertyImage{},
		&PropertyFeature{},
		&SavedProperty{},
		&Application{},
		&Notification{},
		&PropertyEvent{},
		&Message{},
		&Viewing{},
		&TenantProfile{},
		&LandlordProfile{},
	}
}
