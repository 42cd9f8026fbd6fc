// Package builtin registers every store kind shipped with filedb.
package builtin

import (
	_ "github.com/arthur-debert/filedb/pkg/stores/general"
	_ "github.com/arthur-debert/filedb/pkg/stores/orm"
	_ "github.com/arthur-debert/filedb/pkg/stores/redis"
)
