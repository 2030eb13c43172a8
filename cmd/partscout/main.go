// partscout finds the cheapest quantity-1 offer for an electronic
// component across distributor APIs.
package main

import (
	"github.com/nvenk/partscout/cmd/partscout/cmd"
)

func main() {
	cmd.Execute()
}
