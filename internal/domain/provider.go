package domain

// Proveedores externos de identidad soportados.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// ProviderLabel devuelve el nombre legible del proveedor.
func ProviderLabel(provider string) string {
	switch provider {
	case ProviderGoogle:
		return "Google"
	case ProviderGitHub:
		return "GitHub"
	default:
		return provider
	}
}

// ExternalIdentity es la identidad resuelta por un proveedor OAuth.
type ExternalIdentity struct {
	Provider  string
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Username  string
}
