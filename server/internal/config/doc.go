// Package config loads the server configuration from the `server:` section
// of config.yaml.
//
// Load(path) starts from Default(), unmarshals the YAML over it and then
// validates. Secrets and database ids never appear inline: fields ending in
// _env name the environment variable to read (auth.key_env,
// notion.token_env, notion.users_db_env, notify.webhooks[].url_env).
//
// Watch(ctx, path, onChange) reloads the file on every write.
package config
