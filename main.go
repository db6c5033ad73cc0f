// @title Vote Catalog API
// @version 1.0
// @description Vote catalog registry, rule book sync and poll results

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token
package main

import (
	_ "github.com/tung362/votecatalog/docs"

	"github.com/tung362/votecatalog/cli"
	"github.com/tung362/votecatalog/logging"
)

func main() {
	logging.BoostrapLogger()
	cli.Execute()
}
