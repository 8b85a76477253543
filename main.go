// SPDX-License-Identifier: MPL-2.0

package main

import cmd "embedscript-cli/cmd/embedscript"

func main() {
	cmd.Execute()
}
