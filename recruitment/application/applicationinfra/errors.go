package applicationinfra

import (
	"github.com/Abraxas-365/hirehub/pkg/errx"
)

func isNotFound(err error) bool {
	return errx.IsType(err, errx.TypeNotFound)
}
