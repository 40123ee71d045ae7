package core

import "time"

// User represents an account stored in the credential store
type User struct {
	ID           string    // Unique user identifier
	Name         string    // Display name
	Email        string    // Login identity, unique across the store
	PasswordHash string    // bcrypt hash of the password, never serialized
	Role         string    // Role tag, defaults to RoleCustomer
	CreatedAt    time.Time // When the account was created
}

// RoleCustomer is the role assigned to accounts created through signup
const RoleCustomer = "customer"
