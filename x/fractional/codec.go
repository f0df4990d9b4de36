package fractional

import (
	amino "github.com/tendermint/go-amino"
)

// cdc encodes all models persisted by this package.
var cdc = amino.NewCodec()
