/*
Package config loads filedeck settings.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+
	                   |
	           FILEDECK_* env vars

🔄 Flow:
1. Pick a parser by file extension (a missing file means defaults)
2. Overlay FILEDECK_* environment variables
3. Validate and fill defaults

The storage directory is never guessed here. cmd/filedeck resolves it from
flags, environment, config and finally the user config directory, and hands
it to persist.New.
*/
package config
