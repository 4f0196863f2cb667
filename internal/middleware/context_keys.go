package middleware

import "github.com/gin-gonic/gin"

// subjectKey is the key used to store the authenticated subject (the account
// email carried by the access token) in the request context.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated subject email from the
// request context. It returns the subject and a boolean indicating if it was found.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subjectVal := c.Request.Context().Value(subjectKey)
	if subjectVal == nil {
		return "", false
	}

	subject, ok := subjectVal.(string)
	if !ok {
		return "", false
	}

	return subject, true
}
