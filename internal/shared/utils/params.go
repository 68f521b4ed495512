package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/id"
)

// ParseRequestSID reads the service request SID from the ":id" route
// parameter. Bare numeric IDs and IDs with another prefix are rejected.
func ParseRequestSID(c *gin.Context) (string, error) {
	sid := strings.TrimSpace(c.Param("id"))
	if sid == "" {
		return "", errors.NewValidationError("service request ID is required")
	}

	if err := id.ValidatePrefix(sid, id.PrefixServiceRequest); err != nil {
		return "", errors.NewValidationError(
			"invalid service request ID",
			fmt.Sprintf("expected %s_<id>, got %q", id.PrefixServiceRequest, sid),
		)
	}

	return sid, nil
}
