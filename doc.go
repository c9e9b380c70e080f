// Package blog implements a small multi-user blogging service: account
// registration, password sign-in, and posts with optional images plus
// comments.
//
// Sessions:
//   - Sign-in mints a stateless HS256 JWT that carries the full profile
//     (id, email, name, picture, role), so request handling never goes back
//     to the database to resolve the caller. TokenServiceImpl issues and
//     validates tokens; RequireSession is the Fiber middleware that turns a
//     bearer token or cookie into a Session in the request context.
//   - Password checks run through bcrypt. When the account does not exist a
//     dummy hash is compared anyway so lookups and misses cost the same.
//
// Authorization:
//   - Every mutating endpoint sits behind RequireSession. Resource edits
//     additionally go through RequireOwner, which admits the resource owner
//     and moderator roles and rejects everyone else.
//
// Persistence:
//   - Models are Bun models over SQLite or Postgres. Repositories wrap
//     go-repository-bun and the RepositoryManager carries an explicit *bun.DB
//     handle. Migrations are embedded under data/sql/migrations.
package blog
