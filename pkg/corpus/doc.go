/*
Package corpus provides concrete character sources for training a charlm.Model.

Every source yields an io.RuneReader: plain text files, the visible text of
HTML documents, and named documents kept in a SQLite-backed Store.
*/
package corpus
