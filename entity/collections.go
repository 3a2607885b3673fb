package entity

const (
	CollectionAuth           = "auth"
	CollectionStudents       = "students"
	CollectionAdmins         = "admins"
	CollectionPasswordResets = "password_resets"
)
