package engine

import (
	amino "github.com/tendermint/go-amino"
)

// cdc encodes the configuration singleton.
var cdc = amino.NewCodec()
