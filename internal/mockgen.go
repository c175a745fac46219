package internal

//go:generate mockgen -destination=./mocks/store_mock.go -package=mocks github.com/geoleowills/SQL-Library-Manager/internal/store Store
