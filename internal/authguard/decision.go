// Package authguard decides whether a navigation may enter a route based on
// credential validity facts computed elsewhere.
package authguard

// Default landing routes.
const (
	DefaultAnonymousLanding     = "/login"
	DefaultAuthenticatedLanding = "/"
)

// Decision tells the caller whether to proceed or where to redirect.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Routes holds the landing paths used for redirects.
type Routes struct {
	AnonymousLanding     string
	AuthenticatedLanding string
}

// DefaultRoutes returns the stock landing routes.
func DefaultRoutes() Routes {
	return Routes{
		AnonymousLanding:     DefaultAnonymousLanding,
		AuthenticatedLanding: DefaultAuthenticatedLanding,
	}
}

func (r Routes) withDefaults() Routes {
	if r.AnonymousLanding == "" {
		r.AnonymousLanding = DefaultAnonymousLanding
	}
	if r.AuthenticatedLanding == "" {
		r.AuthenticatedLanding = DefaultAuthenticatedLanding
	}
	return r
}

func credentialed(hasToken, isExpired bool) bool {
	return hasToken && !isExpired
}

// CanEnterProtected allows only a present, unexpired credential.
func (r Routes) CanEnterProtected(hasToken, isExpired bool) Decision {
	if credentialed(hasToken, isExpired) {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: r.withDefaults().AnonymousLanding}
}

// CanEnterPublicOnly allows everyone except holders of a valid credential.
func (r Routes) CanEnterPublicOnly(hasToken, isExpired bool) Decision {
	if !credentialed(hasToken, isExpired) {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: r.withDefaults().AuthenticatedLanding}
}

// CanEnterProtected applies DefaultRoutes.
func CanEnterProtected(hasToken, isExpired bool) Decision {
	return DefaultRoutes().CanEnterProtected(hasToken, isExpired)
}

// CanEnterPublicOnly applies DefaultRoutes.
func CanEnterPublicOnly(hasToken, isExpired bool) Decision {
	return DefaultRoutes().CanEnterPublicOnly(hasToken, isExpired)
}
