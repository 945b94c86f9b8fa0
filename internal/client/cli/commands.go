package cli

// commands is the command table of the REPL, in help order.
func (a *App) commands() []command {
	cmds := []command{
		{name: "login", help: "log in", run: a.login},
		{name: "health", help: "check the backend", run: a.health},
		{name: "logout", help: "log out", auth: true, run: a.logout},
		{name: "whoami", help: "show the current user", auth: true, run: a.whoami},
		{name: "passwd", help: "change your password", auth: true, run: a.passwd},
		{name: "stats", help: "dashboard statistics", auth: true, run: a.stats},

		{name: "vehicles", args: "[status]", help: "list cases", auth: true, run: a.listVehicles},
		{name: "vehicle", args: "<id>", help: "show a case with its timeline and documents", auth: true, run: a.showVehicle},
		{name: "plate", args: "<matricula>", help: "find a case by plate", auth: true, run: a.findPlate},
		{name: "addvehicle", help: "open a new case", auth: true, run: a.addVehicle},
		{name: "editvehicle", args: "<id>", help: "edit a case", auth: true, run: a.editVehicle},
		{name: "delvehicle", args: "<id>", help: "delete a case", auth: true, run: a.deleteVehicle},
		{name: "addupdate", args: "<id>", help: "add a timeline entry", auth: true, run: a.addUpdate},
		{name: "delupdate", args: "<id> <update-id>", help: "delete a timeline entry", auth: true, run: a.deleteUpdate},
		{name: "docs", args: "<id>", help: "list the documents of a case", auth: true, run: a.listDocuments},
		{name: "doctypes", help: "list document types", auth: true, run: a.documentTypes},
		{name: "download", args: "<document-id>", help: "save a document", auth: true, run: a.download},
		{name: "report", args: "<id>", help: "case report", auth: true, run: a.report},

		{name: "triggers", args: "[all|pending|processed] [page]", help: "list email triggers", auth: true, run: a.listTriggers},
		{name: "process", args: "<id>", help: "turn an email trigger into a case", auth: true, run: a.processTrigger},
		{name: "checknew", help: "fetch new emails", auth: true, run: a.checkNew},
		{name: "autoprocess", help: "process every pending trigger", admin: true, run: a.autoProcess},

		{name: "users", help: "list users", admin: true, run: a.listUsers},
		{name: "adduser", help: "register a user", admin: true, run: a.addUser},
		{name: "toggleuser", args: "<id>", help: "activate or deactivate a user", admin: true, run: a.toggleUser},
		{name: "deluser", args: "<id>", help: "delete a user", admin: true, run: a.deleteUser},
	}

	cmds = append(cmds, refCommands(a, brandKind(a))...)
	cmds = append(cmds, refCommands(a, carModelKind(a))...)
	cmds = append(cmds, refCommands(a, companyKind(a))...)
	cmds = append(cmds, refCommands(a, locationKind(a))...)
	return cmds
}
