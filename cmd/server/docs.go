package main

// @title Property Backend API
// @version 1.0
// @description Property listings, accounts and renter favorites

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Registration and login

// @tag.name Users
// @tag.description Account endpoints

// @tag.name Properties
// @tag.description Property listings

// @tag.name Favorites
// @tag.description Properties saved by renters

// @tag.name Health
// @tag.description Health check endpoints
