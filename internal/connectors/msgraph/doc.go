// Package msgraph provides a RemoteDrive backed by a SharePoint document
// library, read through the Microsoft Graph delta API.
//
// # Authentication
//
// The drive authenticates as an application using the OAuth2 client
// credentials grant against the tenant's token endpoint. Tokens are cached
// and refreshed by golang.org/x/oauth2.
//
// # Change feed
//
// ListChanges reads /drives/{id}/root:/{watchFolder}:/delta, follows
// @odata.nextLink to the end of the feed and returns the @odata.deltaLink as
// the next cursor. An expired delta link surfaces as ErrDeltaExpired.
//
// # Errors
//
// Every failure is wrapped with domain.ErrRemoteUnavailable. Throttled
// responses are additionally wrapped with domain.ErrRateLimited and pause
// further requests for the Retry-After period.
package msgraph
