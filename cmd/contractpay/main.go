package main

import (
	"fmt"
	"os"

	"github.com/yungbote/contractpay-backend/cmd/contractpay/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
