// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package main

import "github.com/axonweb3/axon-bridge/cli"

func main() {
	cli.Execute()
}
