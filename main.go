// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "repub-cli/cmd/repub"
)

func main() {
	cmd.Execute()
}
